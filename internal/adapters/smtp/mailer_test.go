package smtp

import (
	"errors"
	"fmt"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"

	"lostfound/internal/ports"
)

func TestClassify(t *testing.T) {
	authReject := &textproto.Error{Code: 535, Msg: "5.7.8 Username and Password not accepted"}
	assert.ErrorIs(t, classify(fmt.Errorf("smtp auth: %w", authReject)), ports.ErrMailAuth)

	noAuth := &textproto.Error{Code: 530, Msg: "5.7.0 Authentication Required"}
	assert.ErrorIs(t, classify(noAuth), ports.ErrMailAuth)

	// Transient protocol failures keep their identity so the dispatcher retries them.
	busy := &textproto.Error{Code: 421, Msg: "Service not available"}
	assert.NotErrorIs(t, classify(busy), ports.ErrMailAuth)

	plain := errors.New("connection reset by peer")
	assert.Equal(t, plain, classify(plain))
}
