package memory_test

import (
	"testing"

	"github.com/Roky360/fotogo-bakcend/pkg/store/document"
	"github.com/Roky360/fotogo-bakcend/pkg/store/document/memory"
	"github.com/Roky360/fotogo-bakcend/pkg/store/document/storetest"
)

func TestConformance(t *testing.T) {
	storetest.RunConformanceSuite(t, func(t *testing.T) document.Store {
		return memory.NewStore()
	})
}
