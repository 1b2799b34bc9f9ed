package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreateAndVerifyToken(t *testing.T) {
	key := []byte("test-secret")

	token, err := CreateJwtToken(7, "alice#7", key, time.Now().Add(time.Hour))
	assert.NoError(t, err)

	claims, err := VerifyToken(token, key)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), claims.ID)
	assert.Equal(t, "alice#7", claims.Tag)
}

func TestVerifyToken_RejectsWrongKey(t *testing.T) {
	token, err := CreateJwtToken(7, "alice#7", []byte("right-key"), time.Now().Add(time.Hour))
	assert.NoError(t, err)

	claims, err := VerifyToken(token, []byte("wrong-key"))
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestVerifyToken_RejectsExpiredToken(t *testing.T) {
	key := []byte("test-secret")
	token, err := CreateJwtToken(7, "alice#7", key, time.Now().Add(-time.Minute))
	assert.NoError(t, err)

	claims, err := VerifyToken(token, key)
	assert.Error(t, err)
	assert.Nil(t, claims)
}
