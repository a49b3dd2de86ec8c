// Package config loads the gimbal configuration from YAML, then applies
// environment overrides, optionally read from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding the file values
const (
	EnvLogLevel = "GIMBAL_LOG_LEVEL"
	EnvSubsteps = "GIMBAL_SUBSTEPS"
	EnvWorkers  = "GIMBAL_WORKERS"
)

var ErrInvalid = errors.New("config: invalid configuration")

// Configuration defines the global engine configuration
type Configuration struct {
	Log       LogConfiguration       `yaml:"log"`
	Physics   PhysicsConfiguration   `yaml:"physics"`
	RigidBody RigidBodyConfiguration `yaml:"rigid_body"`
}

// LogConfiguration is used to configure logrus
type LogConfiguration struct {
	// Level is any logrus level name: panic, fatal, error, warn, info, debug, trace
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// PhysicsConfiguration is used to configure the simulation world
type PhysicsConfiguration struct {
	Gravity  [3]float64 `yaml:"gravity"`
	Substeps int        `yaml:"substeps"`
	Workers  int        `yaml:"workers"`

	// SleepTime is how long a body must stay under SleepVelocity to fall asleep, in seconds
	SleepTime     float64 `yaml:"sleep_time"`
	SleepVelocity float64 `yaml:"sleep_velocity"`
}

// RigidBodyConfiguration holds the material given to newly created bodies
type RigidBodyConfiguration struct {
	Restitution    float64 `yaml:"restitution"`
	Friction       float64 `yaml:"friction"`
	LinearDamping  float64 `yaml:"linear_damping"`
	AngularDamping float64 `yaml:"angular_damping"`
}

// Default returns the configuration used when no file is given
func Default() Configuration {
	return Configuration{
		Log: LogConfiguration{Level: "info"},
		Physics: PhysicsConfiguration{
			Gravity:       [3]float64{0, -9.81, 0},
			Substeps:      8,
			Workers:       1,
			SleepTime:     0.1,
			SleepVelocity: 0.05,
		},
		RigidBody: RigidBodyConfiguration{
			Restitution: 0.2,
			Friction:    0.2,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path skips
// the file. Environment overrides are applied last.
func Load(path string) (Configuration, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return config, err
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return config, err
	}

	return config, config.Validate()
}

// LoadEnv reads the given .env files into the process environment, existing
// variables win. Missing files are ignored.
func LoadEnv(filenames ...string) error {
	for _, filename := range filenames {
		if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(filename); err != nil {
			return err
		}
	}

	return nil
}

func (c *Configuration) applyEnv() error {
	if level, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Log.Level = level
	}
	if err := intFromEnv(EnvSubsteps, &c.Physics.Substeps); err != nil {
		return err
	}

	return intFromEnv(EnvWorkers, &c.Physics.Workers)
}

func intFromEnv(key string, target *int) error {
	value, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, key, value)
	}
	*target = n

	return nil
}

// Validate rejects values the simulation cannot run with
func (c Configuration) Validate() error {
	if c.Physics.Substeps <= 0 {
		return fmt.Errorf("%w: substeps must be positive, got %d", ErrInvalid, c.Physics.Substeps)
	}
	if c.Physics.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalid, c.Physics.Workers)
	}
	if c.RigidBody.Restitution < 0 || c.RigidBody.Friction < 0 {
		return fmt.Errorf("%w: negative material coefficient", ErrInvalid)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// SetupLogger applies the log configuration to the standard logrus logger
func (c Configuration) SetupLogger() error {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	if c.Log.JSON {
		log.SetFormatter(&log.JSONFormatter{})
	}

	return nil
}
