package internal

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/haatos/simple-cms/internal/util"
)

var Config *Configuration

type HoursDuration time.Duration

func NewHoursDuration(hours int64) HoursDuration {
	return HoursDuration(time.Duration(hours) * time.Hour)
}

func (hd HoursDuration) MarshalJSON() ([]byte, error) {
	hours := float64(time.Duration(hd)) / float64(time.Hour)
	return json.Marshal(hours)
}

func (hd *HoursDuration) UnmarshalJSON(data []byte) error {
	var hours float64
	if err := json.Unmarshal(data, &hours); err != nil {
		return err
	}
	*hd = HoursDuration(hours * float64(time.Hour))
	return nil
}

type MinutesDuration time.Duration

func NewMinutesDuration(minutes int64) MinutesDuration {
	return MinutesDuration(time.Duration(minutes) * time.Minute)
}

func (md MinutesDuration) MarshalJSON() ([]byte, error) {
	minutes := float64(time.Duration(md)) / float64(time.Minute)
	return json.Marshal(minutes)
}

func (md *MinutesDuration) UnmarshalJSON(data []byte) error {
	var minutes float64
	if err := json.Unmarshal(data, &minutes); err != nil {
		return err
	}
	*md = MinutesDuration(minutes * float64(time.Minute))
	return nil
}

type Configuration struct {
	ResetPasswordExpiresHours HoursDuration   `json:"reset_password_expires_hours"`
	SessionSweepMinutes       MinutesDuration `json:"session_sweep_minutes"`
	LoginRateLimit            float64         `json:"login_rate_limit"`
}

func DefaultConfiguration() *Configuration {
	return &Configuration{
		ResetPasswordExpiresHours: NewHoursDuration(24),
		SessionSweepMinutes:       NewMinutesDuration(30),
		LoginRateLimit:            10,
	}
}

func InitializeConfiguration(path string) {
	Config = DefaultConfiguration()

	configFileExists, _ := util.PathExists(path)
	if !configFileExists {
		if err := writeConfiguration(path, Config); err != nil {
			log.Fatal(err)
		}
	} else {
		configBytes, err := os.ReadFile(path)
		if err != nil {
			log.Fatal(err)
		}
		if err := json.Unmarshal(configBytes, &Config); err != nil {
			log.Fatal(err)
		}
	}
}

func UpdateConfiguration(path string, config *Configuration) error {
	if err := writeConfiguration(path, config); err != nil {
		return err
	}
	Config = config
	return nil
}

func writeConfiguration(path string, config *Configuration) error {
	b, err := json.MarshalIndent(config, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
