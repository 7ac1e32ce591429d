package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nfalab/pkg/adapters/memory"
	"github.com/aretw0/nfalab/pkg/domain"
	"github.com/aretw0/nfalab/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSessionStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	sess := domain.NewSession("iso", "a", "a")
	require.NoError(t, store.Save(ctx, sess))
	sess.Index = 1

	loaded, err := store.Load(ctx, "iso")
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Index, "mutating the caller's value must not leak into the store")

	loaded.Pattern = "b"
	again, err := store.Load(ctx, "iso")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Pattern)
}
