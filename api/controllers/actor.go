// Package controllers adapts HTTP requests onto the domain services.
package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/argvision/argvision-backend/api/middleware"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
	"github.com/argvision/argvision-backend/pkg/types"
)

func requireActor(r *http.Request) (types.Actor, error) {
	actor := middleware.ActorFromContext(r.Context())
	if actor.UserID == uuid.Nil {
		return types.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return actor, nil
}

func unavailable(name string) error {
	return pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable")
}
