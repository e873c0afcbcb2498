package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// PayrollConfig holds the compensation rules applied to every report.
type PayrollConfig struct {
	CutoffHour       int                `mapstructure:"cutoffHour"`
	HourlyRate       float64            `mapstructure:"hourlyRate"`
	KPIFullAmount    float64            `mapstructure:"kpiFullAmount"`
	AgentTypes       map[string]float64 `mapstructure:"agentTypes"`
	DefaultAgentType string             `mapstructure:"defaultAgentType"`
	AgentNameWords   int                `mapstructure:"agentNameWords"`
}

// TargetPerDay returns the daily lead target for agentType, falling back to
// the default type when agentType is empty.
func (c PayrollConfig) TargetPerDay(agentType string) (string, float64, bool) {
	key := strings.ToLower(strings.TrimSpace(agentType))
	if key == "" {
		key = c.DefaultAgentType
	}
	target, ok := c.AgentTypes[key]
	return key, target, ok
}

func DefaultPayrollConfig() PayrollConfig {
	return PayrollConfig{
		CutoffHour:    7,
		HourlyRate:    0,
		KPIFullAmount: 0,
		AgentTypes: map[string]float64{
			"full_time": 2,
			"part_time": 1,
		},
		DefaultAgentType: "full_time",
		AgentNameWords:   0,
	}
}

// RulesProvider exposes the current payroll rules.
type RulesProvider interface {
	Get() PayrollConfig
}

type PayrollConfigHolder struct {
	current atomic.Value // holds PayrollConfig
}

// NewStaticRules returns a holder pinned to cfg.
func NewStaticRules(cfg PayrollConfig) *PayrollConfigHolder {
	holder := &PayrollConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewPayrollConfigHolder(log *zap.Logger) (*PayrollConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("payroll")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/payslip")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PAYSLIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultPayrollConfig()
	v.SetDefault("payroll.cutoffHour", defaults.CutoffHour)
	v.SetDefault("payroll.hourlyRate", defaults.HourlyRate)
	v.SetDefault("payroll.kpiFullAmount", defaults.KPIFullAmount)
	v.SetDefault("payroll.agentTypes", defaults.AgentTypes)
	v.SetDefault("payroll.defaultAgentType", defaults.DefaultAgentType)
	v.SetDefault("payroll.agentNameWords", defaults.AgentNameWords)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileLoaded = false
	}

	cfg, err := decodePayrollConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticRules(cfg)
	if !fileLoaded {
		log.Info("payroll config file not found, using defaults")
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodePayrollConfig(v)
		if err != nil {
			log.Warn("payroll config reload ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("payroll config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *PayrollConfigHolder) Get() PayrollConfig {
	return h.current.Load().(PayrollConfig)
}

func decodePayrollConfig(v *viper.Viper) (PayrollConfig, error) {
	var cfg PayrollConfig
	if err := v.UnmarshalKey("payroll", &cfg); err != nil {
		return PayrollConfig{}, err
	}
	cfg.DefaultAgentType = strings.ToLower(strings.TrimSpace(cfg.DefaultAgentType))
	normalized := make(map[string]float64, len(cfg.AgentTypes))
	for name, target := range cfg.AgentTypes {
		normalized[strings.ToLower(strings.TrimSpace(name))] = target
	}
	cfg.AgentTypes = normalized
	if err := validatePayrollConfig(cfg); err != nil {
		return PayrollConfig{}, err
	}
	return cfg, nil
}

func validatePayrollConfig(cfg PayrollConfig) error {
	if cfg.CutoffHour < 0 || cfg.CutoffHour > 23 {
		return fmt.Errorf("payroll.cutoffHour must be within 0-23, got %d", cfg.CutoffHour)
	}
	if cfg.HourlyRate < 0 {
		return errors.New("payroll.hourlyRate cannot be negative")
	}
	if cfg.KPIFullAmount < 0 {
		return errors.New("payroll.kpiFullAmount cannot be negative")
	}
	if len(cfg.AgentTypes) == 0 {
		return errors.New("payroll.agentTypes cannot be empty")
	}
	for name, target := range cfg.AgentTypes {
		if target < 0 {
			return fmt.Errorf("payroll.agentTypes.%s cannot be negative", name)
		}
	}
	if _, ok := cfg.AgentTypes[cfg.DefaultAgentType]; !ok {
		return fmt.Errorf("payroll.defaultAgentType %q is not a configured agent type", cfg.DefaultAgentType)
	}
	if cfg.AgentNameWords < 0 {
		return errors.New("payroll.agentNameWords cannot be negative")
	}
	return nil
}
