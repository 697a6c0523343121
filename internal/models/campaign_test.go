package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReminderOffset(t *testing.T) {
	assert.Equal(t, 30*time.Minute, Reminder{Unit: ReminderUnitMinutes, Value: 30}.Offset())
	assert.Equal(t, 2*time.Hour, Reminder{Unit: ReminderUnitHours, Value: 2}.Offset())
	assert.Equal(t, 72*time.Hour, Reminder{Unit: ReminderUnitDays, Value: 3}.Offset())

	// Unknown units degrade to minutes rather than dropping the reminder.
	assert.Equal(t, 15*time.Minute, Reminder{Unit: "Weeks", Value: 15}.Offset())
}

func TestReminderDueAt(t *testing.T) {
	anchor := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	r := Reminder{Label: "24h before", Unit: ReminderUnitHours, Value: 24, Enabled: true}
	assert.Equal(t, anchor.Add(-24*time.Hour), r.DueAt(anchor))
}

func TestHasEnabledReminder(t *testing.T) {
	c := &EmailCampaign{}
	assert.False(t, c.HasEnabledReminder())

	c.Reminders = []Reminder{{Label: "24h before", Enabled: false}}
	assert.False(t, c.HasEnabledReminder())

	c.Reminders = append(c.Reminders, Reminder{Label: "1h before", Enabled: true})
	assert.True(t, c.HasEnabledReminder())
}

func TestReminderJSONShape(t *testing.T) {
	// The JSONB containment query in the scheduler depends on this exact
	// key casing.
	b, err := json.Marshal(Reminder{Label: "1h before", Unit: ReminderUnitHours, Value: 1, Enabled: true})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"label":"1h before","unit":"Hours","value":1,"enabled":true}`, string(b))
}
