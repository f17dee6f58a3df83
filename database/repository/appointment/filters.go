package appointmentRepo

import (
	"time"

	"appointly/models"

	"go.mongodb.org/mongo-driver/bson"
)

func liveStatuses() bson.A {
	statuses := make(bson.A, 0, len(models.LiveStatuses))
	for _, s := range models.LiveStatuses {
		statuses = append(statuses, s)
	}
	return statuses
}

// overlapFilter matches live appointments of providerID whose interval
// intersects [start, end). Touching intervals do not match.
func overlapFilter(providerID string, start, end time.Time) bson.M {
	return bson.M{
		"providerId": providerID,
		"status":     bson.M{"$in": liveStatuses()},
		"start":      bson.M{"$lt": end},
		"end":        bson.M{"$gt": start},
	}
}

// conflictFilter is overlapFilter minus the appointment being moved.
func conflictFilter(providerID string, start, end time.Time, excludeID string) bson.M {
	filter := overlapFilter(providerID, start, end)
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	return filter
}

// guardFilter pins a write to the exact state it was decided on.
func guardFilter(id string, status models.AppointmentStatus, version int) bson.M {
	return bson.M{
		"id":      id,
		"status":  status,
		"version": version,
	}
}

func statusUpdate(ch StatusChange, now time.Time) bson.M {
	set := bson.M{
		"status":    ch.ToStatus,
		"updatedAt": now,
	}
	if ch.Reason != "" {
		set["reason"] = ch.Reason
	}
	return bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	}
}

func scheduleUpdate(ch ScheduleChange, now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"status":    ch.ToStatus,
			"start":     ch.Start,
			"end":       ch.End,
			"slotTime":  ch.SlotTime,
			"updatedAt": now,
		},
		"$inc": bson.M{"version": 1},
	}
}
