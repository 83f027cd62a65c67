package mystore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type session struct {
	UID      string
	Shopper  string
	Visits   int
	Currency string
}

var (
	exampleSession = session{UID: "123", Shopper: "eva", Visits: 2, Currency: "USD"}
)

func TestStore(t *testing.T) {
	c := context.TODO()
	ps, cleanup, err := NewInMemoryStore[session](c)
	assert.NoError(t, err)
	defer cleanup()

	t.Run("Get not found", func(t *testing.T) {
		_, found, err := ps.Get(c, exampleSession.UID)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Put", func(t *testing.T) {
		err = ps.Put(c, exampleSession.UID, exampleSession)
		assert.NoError(t, err)
	})

	t.Run("Get found", func(t *testing.T) {
		s, found, err := ps.Get(c, exampleSession.UID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, exampleSession, s)
	})

	t.Run("List", func(t *testing.T) {
		all, err := ps.List(c)
		assert.NoError(t, err)
		assert.Equal(t, []session{exampleSession}, all)
	})

	t.Run("Mutate within transaction", func(t *testing.T) {
		err := ps.RunInTransaction(c, func(c context.Context) error {
			s, _, err := ps.Get(c, exampleSession.UID)
			if err != nil {
				return err
			}
			s.Visits++

			return ps.Put(c, s.UID, s)
		})
		assert.NoError(t, err)

		s, found, err := ps.Get(c, exampleSession.UID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 3, s.Visits)
	})
}
