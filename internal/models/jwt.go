package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the identity contract with the external account service: it only
// has to supply a user id and a display tag.
type Claims struct {
	ID  uint   `json:"id"`
	Tag string `json:"tag"`
	jwt.RegisteredClaims
}
