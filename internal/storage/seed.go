package storage

import (
	"context"
	"time"

	"cardioguard/internal/models"
)

// SeedDemoPatients loads the sample cohort into an empty store. Used by the
// demo deployment so the dashboards have data on first run.
func SeedDemoPatients(ctx context.Context, store Storage) error {
	existing, err := store.ListPatients(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	now := time.Now()
	daysAgo := func(d int) time.Time { return now.AddDate(0, 0, -d) }
	inDays := func(d int) *time.Time {
		t := now.AddDate(0, 0, d)
		return &t
	}

	patients := []*models.Patient{
		{
			ID:                 "P001",
			Name:               "Margaret Johnson",
			Age:                72,
			Diagnosis:          "Acute Myocardial Infarction",
			DischargeDate:      daysAgo(3),
			RiskLevel:          models.RiskLow,
			RiskFactors:        []string{"Diabetes", "Hypertension", "Previous MI"},
			Contact:            models.ContactInfo{Phone: "555-0101", Email: "mjohnson@email.com"},
			Vitals:             &models.VitalSigns{BloodPressure: "145/92", HeartRate: 88, Weight: 165},
			DailyCheckInStatus: models.CheckInPending,
			AlertLevel:         models.ClassificationGreen,
			Onboarded:          true,
			NextAppointment:    inDays(7),
		},
		{
			ID:                 "P002",
			Name:               "Robert Chen",
			Age:                65,
			Diagnosis:          "Congestive Heart Failure",
			DischargeDate:      daysAgo(5),
			RiskLevel:          models.RiskHigh,
			RiskFactors:        []string{"Hypertension", "Obesity"},
			Contact:            models.ContactInfo{Phone: "555-0102", Email: "rchen@email.com"},
			Vitals:             &models.VitalSigns{BloodPressure: "138/88", HeartRate: 92, Weight: 210},
			DailyCheckInStatus: models.CheckInPending,
			AlertLevel:         models.ClassificationGreen,
			Onboarded:          true,
			NextAppointment:    inDays(3),
		},
		{
			ID:                 "P003",
			Name:               "Dorothy Williams",
			Age:                78,
			Diagnosis:          "Coronary Artery Bypass Graft",
			DischargeDate:      daysAgo(10),
			RiskLevel:          models.RiskMedium,
			RiskFactors:        []string{"Diabetes"},
			Contact:            models.ContactInfo{Phone: "555-0103", Email: "dwilliams@email.com"},
			Vitals:             &models.VitalSigns{BloodPressure: "128/82", HeartRate: 76, Weight: 142},
			RecoveryStreak:     6,
			DailyCheckInStatus: models.CheckInCompleted,
			AlertLevel:         models.ClassificationGreen,
			Onboarded:          true,
			NextAppointment:    inDays(14),
		},
	}

	for _, p := range patients {
		if err := store.SavePatient(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
