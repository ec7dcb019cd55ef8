package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventCreateRequestValidate(t *testing.T) {
	valid := EventCreateRequest{
		Title:    "Concert",
		Date:     time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC),
		Location: "Arena",
		Price:    49.99,
	}
	assert.NoError(t, valid.Validate())

	free := valid
	free.Price = 0
	assert.NoError(t, free.Validate())

	noTitle := valid
	noTitle.Title = "   "
	assert.Error(t, noTitle.Validate())

	noDate := valid
	noDate.Date = time.Time{}
	assert.Error(t, noDate.Validate())

	negativePrice := valid
	negativePrice.Price = -1
	assert.Error(t, negativePrice.Validate())
}
