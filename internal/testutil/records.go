package testutil

import "github.com/talhahasanzia/entrifi/internal/submission"

// SampleRecord returns a fully populated doctor_visit record.
func SampleRecord() submission.Record {
	amount := 50.0
	return submission.Record{
		SerialNumber:   "abc-1700000000000",
		CreatedBy:      "a@b.com",
		CreatedFor:     "Jane",
		ReasonType:     "doctor_visit",
		Amount:         &amount,
		CreationReason: "checkup",
		ExtraFields:    map[string]any{"doctorName": "Dr. X"},
		Timestamp:      EpochMillis,
	}
}

// Record returns a minimal record with the given serial and timestamp.
func Record(serial string, ts int64) submission.Record {
	return submission.Record{
		SerialNumber: serial,
		CreatedBy:    "a@b.com",
		CreatedFor:   "Jane",
		ReasonType:   "other",
		ExtraFields:  map[string]any{},
		Timestamp:    ts,
	}
}
