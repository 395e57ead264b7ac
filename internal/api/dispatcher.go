package api

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ignite/users-server/internal/domain"
	"github.com/ignite/users-server/internal/pkg/logger"
	"github.com/ignite/users-server/internal/rawhttp"
	"github.com/ignite/users-server/internal/service/users"
)

// Response bodies.
const (
	msgCreated      = "User created"
	msgUpdated      = "User updated"
	msgDeleted      = "User deleted"
	msgUserNotFound = "User not found"
	msgRouteMissing = "404 not found"
	msgError        = "Error"
)

// UserService is the slice of users.Service the dispatcher needs.
type UserService interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	Get(ctx context.Context, id int64) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id int64, u domain.User) error
	Delete(ctx context.Context, id int64) error
}

// Dispatcher turns parsed requests into responses. Every failure is contained
// in the action that produced it; Dispatch always returns a response.
type Dispatcher struct {
	users UserService
}

// NewDispatcher creates a dispatcher over the given user service.
func NewDispatcher(svc UserService) *Dispatcher {
	return &Dispatcher{users: svc}
}

// Dispatch routes req and runs the matching action. The chosen route is
// returned alongside the response for logging and metrics.
func (d *Dispatcher) Dispatch(ctx context.Context, req rawhttp.Request) (Route, rawhttp.Response) {
	route := Match(req.Method, req.Path)
	switch route {
	case RouteCreate:
		return route, d.create(ctx, req)
	case RouteReadOne:
		return route, d.readOne(ctx, req)
	case RouteReadAll:
		return route, d.readAll(ctx)
	case RouteUpdate:
		return route, d.update(ctx, req)
	case RouteDelete:
		return route, d.delete(ctx, req)
	}
	return route, rawhttp.NotFound(msgRouteMissing)
}

func (d *Dispatcher) create(ctx context.Context, req rawhttp.Request) rawhttp.Response {
	u, err := domain.DecodeUser(req.Body)
	if err != nil {
		return internalError(RouteCreate, err)
	}
	created, err := d.users.Create(ctx, u)
	if err != nil {
		return internalError(RouteCreate, err)
	}
	logger.Info("user created", "id", created.ID, "email", created.Email)
	return rawhttp.OK(msgCreated)
}

func (d *Dispatcher) readOne(ctx context.Context, req rawhttp.Request) rawhttp.Response {
	id, err := parseID(req.ID)
	if err != nil {
		return internalError(RouteReadOne, err)
	}
	u, err := d.users.Get(ctx, id)
	if errors.Is(err, users.ErrNotFound) {
		return rawhttp.NotFound(msgUserNotFound)
	}
	if err != nil {
		return internalError(RouteReadOne, err)
	}
	body, err := domain.EncodeUser(u)
	if err != nil {
		return internalError(RouteReadOne, err)
	}
	return rawhttp.OK(body)
}

func (d *Dispatcher) readAll(ctx context.Context) rawhttp.Response {
	all, err := d.users.List(ctx)
	if err != nil {
		return internalError(RouteReadAll, err)
	}
	body, err := domain.EncodeUsers(all)
	if err != nil {
		return internalError(RouteReadAll, err)
	}
	return rawhttp.OK(body)
}

func (d *Dispatcher) update(ctx context.Context, req rawhttp.Request) rawhttp.Response {
	id, err := parseID(req.ID)
	if err != nil {
		return internalError(RouteUpdate, err)
	}
	u, err := domain.DecodeUser(req.Body)
	if err != nil {
		return internalError(RouteUpdate, err)
	}
	if err := d.users.Update(ctx, id, u); err != nil {
		return internalError(RouteUpdate, err)
	}
	return rawhttp.OK(msgUpdated)
}

func (d *Dispatcher) delete(ctx context.Context, req rawhttp.Request) rawhttp.Response {
	id, err := parseID(req.ID)
	if err != nil {
		return internalError(RouteDelete, err)
	}
	err = d.users.Delete(ctx, id)
	if errors.Is(err, users.ErrNotFound) {
		return rawhttp.NotFound(msgUserNotFound)
	}
	if err != nil {
		return internalError(RouteDelete, err)
	}
	return rawhttp.OK(msgDeleted)
}

// parseID accepts the same range as the SERIAL id column.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse id %q: %w", raw, err)
	}
	return id, nil
}

// internalError logs the real cause and returns the generic 500 body.
func internalError(route Route, err error) rawhttp.Response {
	logger.Error("action failed", "action", route, "error", err)
	return rawhttp.InternalError(msgError)
}
