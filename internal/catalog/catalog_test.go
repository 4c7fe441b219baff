package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawan0320/ecovoyage-backend/internal/domain/checkout"
)

func TestStaticCoversAllSelectionSteps(t *testing.T) {
	src := NewStatic()

	for _, flow := range checkout.Registry() {
		for _, def := range flow.Steps {
			assert.NotEmpty(t, src.ItemsFor(def.ID), "step %s has no candidates", def.ID)
		}
	}
}

func TestStaticUnknownStep(t *testing.T) {
	src := NewStatic()
	assert.Nil(t, src.ItemsFor(checkout.StepSummary))
	assert.Nil(t, src.ItemsFor(checkout.Step("unknown")))
}

func TestStaticReturnsCopies(t *testing.T) {
	src := NewStatic()

	items := src.ItemsFor(checkout.StepFood)
	require.NotEmpty(t, items)
	items[0].Price = -1

	again := src.ItemsFor(checkout.StepFood)
	assert.NotEqual(t, -1.0, again[0].Price)
}
