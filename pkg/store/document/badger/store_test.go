package badger_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Roky360/fotogo-bakcend/pkg/store/document"
	"github.com/Roky360/fotogo-bakcend/pkg/store/document/badger"
	"github.com/Roky360/fotogo-bakcend/pkg/store/document/storetest"
)

func TestConformance(t *testing.T) {
	storetest.RunConformanceSuite(t, func(t *testing.T) document.Store {
		store, err := badger.NewStore(badger.Config{Path: t.TempDir()})
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = store.Close()
		})
		return store
	})
}

func TestHealthCheck(t *testing.T) {
	store, err := badger.NewStore(badger.Config{Path: t.TempDir()})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.HealthCheck(t.Context()))
}
