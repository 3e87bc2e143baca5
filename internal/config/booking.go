package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultSlotGranularity = "30"
	defaultOpenHour        = "0"
	defaultCloseHour       = "24"
	defaultMaxBookingHours = "2"
	defaultDailyCap        = "2"
	defaultWeeklyHoursCap  = "6"
	defaultModifyLeadTime  = "15m"
	defaultAdmitRetries    = "3"
)

// BookingConfig holds the process-wide booking constants. Fixed at
// startup, never mutated at runtime.
type BookingConfig struct {
	SlotGranularityMin int
	OpenHour           int
	CloseHour          int
	MaxBookingHours    int
	DailyBookingCap    int
	WeeklyHoursCap     float64
	ModifyLeadTime     time.Duration
	AdmitRetryAttempts int
}

func LoadBookingConfig() (*BookingConfig, error) {
	cfg := &BookingConfig{}

	var err error
	cfg.SlotGranularityMin, err = parseIntEnv("SLOT_GRANULARITY_MIN", defaultSlotGranularity)
	if err != nil {
		return nil, err
	}
	cfg.OpenHour, err = parseIntEnv("ROOM_OPEN_HOUR", defaultOpenHour)
	if err != nil {
		return nil, err
	}
	cfg.CloseHour, err = parseIntEnv("ROOM_CLOSE_HOUR", defaultCloseHour)
	if err != nil {
		return nil, err
	}
	cfg.MaxBookingHours, err = parseIntEnv("MAX_BOOKING_HOURS", defaultMaxBookingHours)
	if err != nil {
		return nil, err
	}
	cfg.DailyBookingCap, err = parseIntEnv("DAILY_BOOKING_CAP", defaultDailyCap)
	if err != nil {
		return nil, err
	}
	weekly, err := parseIntEnv("WEEKLY_HOURS_CAP", defaultWeeklyHoursCap)
	if err != nil {
		return nil, err
	}
	cfg.WeeklyHoursCap = float64(weekly)
	cfg.ModifyLeadTime, err = parseDurationEnv("MODIFY_LEAD_TIME", defaultModifyLeadTime)
	if err != nil {
		return nil, err
	}
	cfg.AdmitRetryAttempts, err = parseIntEnv("ADMIT_RETRY_ATTEMPTS", defaultAdmitRetries)
	if err != nil {
		return nil, err
	}

	if err := validateBookingConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateBookingConfig(cfg *BookingConfig) error {
	if cfg.SlotGranularityMin <= 0 || 60%cfg.SlotGranularityMin != 0 {
		return fmt.Errorf("SLOT_GRANULARITY_MIN must be a positive divisor of 60, got %d", cfg.SlotGranularityMin)
	}
	if cfg.OpenHour < 0 || cfg.OpenHour > 23 {
		return fmt.Errorf("ROOM_OPEN_HOUR must be in [0,23], got %d", cfg.OpenHour)
	}
	if cfg.CloseHour < 1 || cfg.CloseHour > 24 {
		return fmt.Errorf("ROOM_CLOSE_HOUR must be in [1,24], got %d", cfg.CloseHour)
	}
	if cfg.CloseHour <= cfg.OpenHour {
		return fmt.Errorf("ROOM_CLOSE_HOUR (%d) must be after ROOM_OPEN_HOUR (%d)", cfg.CloseHour, cfg.OpenHour)
	}
	if cfg.MaxBookingHours <= 0 {
		return fmt.Errorf("MAX_BOOKING_HOURS must be > 0")
	}
	if cfg.DailyBookingCap <= 0 {
		return fmt.Errorf("DAILY_BOOKING_CAP must be > 0")
	}
	if cfg.WeeklyHoursCap <= 0 {
		return fmt.Errorf("WEEKLY_HOURS_CAP must be > 0")
	}
	if cfg.ModifyLeadTime < 0 {
		return fmt.Errorf("MODIFY_LEAD_TIME must be >= 0")
	}
	if cfg.AdmitRetryAttempts < 1 {
		return fmt.Errorf("ADMIT_RETRY_ATTEMPTS must be >= 1")
	}
	return nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
