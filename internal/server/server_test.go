package server

import (
	"strings"
	"testing"

	"github.com/shashiranjanraj/inbox/app/services"
	"github.com/shashiranjanraj/inbox/pkg/schedule"
	"github.com/stretchr/testify/assert"
)

// The expiry sweep must land in the schedule registry so both Start and the
// standalone scheduler command run it.
func TestRegisterSchedulesAddsExpirySweep(t *testing.T) {
	RegisterSchedules(services.NewReservationService(nil, nil, nil, true))

	found := false
	for _, entry := range schedule.List() {
		if strings.HasPrefix(entry, "reservations:expire") {
			found = true
		}
	}
	assert.True(t, found, "expected reservations:expire in %v", schedule.List())
}
