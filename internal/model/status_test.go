package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/food-ordering/pkg/apperr"
)

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		in   string
		want OrderStatus
		ok   bool
	}{
		{"PENDING", OrderStatusPending, true},
		{"confirmed", OrderStatusConfirmed, true},
		{"  preparing ", OrderStatusPreparing, true},
		{"Out_For_Delivery", OrderStatusOutForDelivery, true},
		{"DELIVERED", OrderStatusDelivered, true},
		{"cancelled", OrderStatusCancelled, true},
		{"", "", false},
		{"SHIPPED", "", false},
	}
	for _, tt := range tests {
		got, err := ParseOrderStatus(tt.in)
		if tt.ok {
			require.NoError(t, err, tt.in)
			assert.Equal(t, tt.want, got)
		} else {
			assert.True(t, apperr.IsKind(err, apperr.KindInvalidRequest), tt.in)
		}
	}
}

func TestParseDeliveryStatus(t *testing.T) {
	tests := []struct {
		in   string
		want DeliveryStatus
		ok   bool
	}{
		{"SCHEDULED", DeliveryStatusScheduled, true},
		{"picked_up", DeliveryStatusPickedUp, true},
		{"In_Transit", DeliveryStatusInTransit, true},
		{"delivered", DeliveryStatusDelivered, true},
		{"PENDING", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := ParseDeliveryStatus(tt.in)
		if tt.ok {
			require.NoError(t, err, tt.in)
			assert.Equal(t, tt.want, got)
		} else {
			assert.True(t, apperr.IsKind(err, apperr.KindInvalidRequest), tt.in)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.False(t, OrderStatusPending.Terminal())
	assert.False(t, OrderStatusOutForDelivery.Terminal())
}
