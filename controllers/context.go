// Package controllers holds the Gin handlers. They bind and validate
// request bodies, delegate to the services and render the uniform
// response envelope; no domain logic lives here.
package controllers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HarshitSharma-h8/messmate/middleware"
	"github.com/HarshitSharma-h8/messmate/utils"
)

// principal is the authenticated caller, with ids already parsed.
type principal struct {
	UserID   primitive.ObjectID
	MessID   primitive.ObjectID
	Role     string
	Degree   string
	Semester int
}

func currentPrincipal(c *gin.Context) (*principal, error) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return nil, utils.ErrUnauthorized("Access denied. No token provided.")
	}
	userID, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, utils.ErrUnauthorized("Invalid token subject")
	}
	messID, err := primitive.ObjectIDFromHex(claims.MessID)
	if err != nil {
		return nil, utils.ErrUnauthorized("Invalid token mess")
	}
	return &principal{
		UserID:   userID,
		MessID:   messID,
		Role:     claims.Role,
		Degree:   claims.Degree,
		Semester: claims.Semester,
	}, nil
}
