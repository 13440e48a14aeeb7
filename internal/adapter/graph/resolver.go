package graph

import (
	"context"
	"strconv"

	"github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"graphql-user-service/internal/usecase/user"
	"graphql-user-service/pkg/logger"
)

// Resolver is the root resolver. Query and Mutation fields are looked up on
// it by name, so every root field of the schema maps to one method here.
type Resolver struct {
	uc  user.UserUsecase
	log *zap.Logger
}

// NewResolver creates the root resolver over the user use case.
func NewResolver(uc user.UserUsecase, log *zap.Logger) *Resolver {
	return &Resolver{uc: uc, log: log}
}

// parseID converts a GraphQL ID into a storage key. Anything that is not a
// positive integer maps to 0, which the use case treats as absent.
func parseID(id graphql.ID) int64 {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func optional(s graphql.NullString) user.OptionalString {
	return user.OptionalString{Set: s.Set, Value: s.Value}
}

// GetUser resolves Query.getUser.
func (r *Resolver) GetUser(ctx context.Context, args struct{ ID graphql.ID }) (*userResolver, error) {
	id := parseID(args.ID)
	if id == 0 {
		logger.WithContext(ctx, r.log).Debug("getUser with malformed id", zap.String("id", string(args.ID)))
	}

	u, err := r.uc.GetUser(ctx, user.GetUserRequest{ID: id})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	return &userResolver{u: *u}, nil
}

// GetUsers resolves Query.getUsers.
func (r *Resolver) GetUsers(ctx context.Context) (*[]*userResolver, error) {
	users, err := r.uc.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*userResolver, len(users))
	for i := range users {
		out[i] = &userResolver{u: users[i]}
	}
	return &out, nil
}

// CreateUser resolves Mutation.createUser.
func (r *Resolver) CreateUser(ctx context.Context, args struct {
	Name  string
	Email string
}) (*userResolver, error) {
	u, err := r.uc.CreateUser(ctx, user.CreateUserRequest{Name: args.Name, Email: args.Email})
	if err != nil {
		return nil, err
	}
	return &userResolver{u: *u}, nil
}

// UpdateUser resolves Mutation.updateUser. Omitted or null arguments leave the
// stored value untouched.
func (r *Resolver) UpdateUser(ctx context.Context, args struct {
	ID    graphql.ID
	Name  graphql.NullString
	Email graphql.NullString
}) (*userResolver, error) {
	u, err := r.uc.UpdateUser(ctx, user.UpdateUserRequest{
		ID:    parseID(args.ID),
		RawID: string(args.ID),
		Name:  optional(args.Name),
		Email: optional(args.Email),
	})
	if err != nil {
		return nil, err
	}
	return &userResolver{u: *u}, nil
}

// DeleteUser resolves Mutation.deleteUser.
func (r *Resolver) DeleteUser(ctx context.Context, args struct{ ID graphql.ID }) (bool, error) {
	return r.uc.DeleteUser(ctx, user.DeleteUserRequest{ID: parseID(args.ID)})
}

type userResolver struct {
	u user.User
}

func (r *userResolver) ID() graphql.ID {
	return graphql.ID(strconv.FormatInt(r.u.ID, 10))
}

func (r *userResolver) Name() string {
	return r.u.Name
}

func (r *userResolver) Email() string {
	return r.u.Email
}
