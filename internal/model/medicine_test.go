package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedicineStockStatus(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		reorder  int
		want     StockStatus
	}{
		{"zero quantity is out of stock", 0, 10, StockStatusOutOfStock},
		{"negative quantity is out of stock", -3, 10, StockStatusOutOfStock},
		{"at reorder level is low stock", 10, 10, StockStatusLowStock},
		{"below reorder level is low stock", 4, 10, StockStatusLowStock},
		{"above reorder level is in stock", 11, 10, StockStatusInStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Medicine{StockQuantity: tt.quantity, ReorderLevel: tt.reorder}
			assert.Equal(t, tt.want, m.StockStatus())
		})
	}
}

func TestToothLayouts(t *testing.T) {
	assert.Len(t, ToothNumbers(DentitionPermanent), 32)
	assert.Len(t, ToothNumbers(DentitionDeciduous), 20)

	assert.True(t, ValidTooth(DentitionPermanent, 11))
	assert.True(t, ValidTooth(DentitionPermanent, 48))
	assert.False(t, ValidTooth(DentitionPermanent, 19))
	assert.False(t, ValidTooth(DentitionPermanent, 55))

	assert.True(t, ValidTooth(DentitionDeciduous, 55))
	assert.True(t, ValidTooth(DentitionDeciduous, 81))
	assert.False(t, ValidTooth(DentitionDeciduous, 11))
	assert.False(t, ValidTooth(DentitionDeciduous, 56))
}

func TestAppointmentSlotGrid(t *testing.T) {
	grid := SlotGrid()
	assert.Len(t, grid, 10)
	assert.Equal(t, "08:00", grid[0])
	assert.Equal(t, "17:00", grid[len(grid)-1])

	assert.True(t, ValidSlot("08:00"))
	assert.True(t, ValidSlot("17:00"))
	assert.False(t, ValidSlot("18:00"))
	assert.False(t, ValidSlot("08:30"))
	assert.False(t, ValidSlot("07:00"))
}

func TestAppointmentStatusTransitions(t *testing.T) {
	assert.True(t, AppointmentStatusScheduled.CanTransition(AppointmentStatusCompleted))
	assert.True(t, AppointmentStatusScheduled.CanTransition(AppointmentStatusCancelled))
	assert.True(t, AppointmentStatusScheduled.CanTransition(AppointmentStatusRescheduled))
	assert.True(t, AppointmentStatusRescheduled.CanTransition(AppointmentStatusCompleted))

	// completed and cancelled are terminal
	assert.False(t, AppointmentStatusCompleted.CanTransition(AppointmentStatusScheduled))
	assert.False(t, AppointmentStatusCompleted.CanTransition(AppointmentStatusCancelled))
	assert.False(t, AppointmentStatusCancelled.CanTransition(AppointmentStatusScheduled))
}
