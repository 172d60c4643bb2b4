package internal

import (
	"context"
	"fmt"
	"redsys-orders/config"
	"redsys-orders/entity"
	"redsys-orders/services"

	"github.com/spf13/cast"
)

const (
	KeyCancelPendingOrders = "cancel_pending_orders"
	KeyCommerceName        = "commerce_name"
	KeyCommerceNum         = "commerce_num"
	KeyTerminal            = "terminal"
	KeyTransactionType     = "transaction_type"
	KeyPayMethods          = "pay_methods"
	KeyLocale              = "locale"
	KeySecret              = "secret"

	defaultPayMethods = "C"
	defaultLocale     = "es_ES"
)

// StaticConfig resolves merchant keys from the configuration file; the values apply to every scope.
type StaticConfig struct {
	values map[string]interface{}
}

func NewStaticConfig(conf *config.Config) *StaticConfig {
	values := map[string]interface{}{
		KeyCancelPendingOrders: conf.Merchant.CancelPendingOrders,
	}
	put := func(key, value string) {
		if value != "" {
			values[key] = value
		}
	}
	put(KeyCommerceName, conf.Merchant.Name)
	put(KeyCommerceNum, conf.Merchant.Code)
	put(KeyTerminal, conf.Merchant.Terminal)
	put(KeyTransactionType, conf.Merchant.TransactionType)
	put(KeyPayMethods, conf.Merchant.PayMethods)
	put(KeyLocale, conf.Merchant.Locale)
	put(KeySecret, conf.Merchant.Secret)
	return &StaticConfig{values: values}
}

func NewStaticValues(values map[string]interface{}) *StaticConfig {
	return &StaticConfig{values: values}
}

func (s *StaticConfig) GetValue(_ context.Context, _ string, key string) (interface{}, bool, error) {
	value, ok := s.values[key]
	return value, ok, nil
}

// ConfigChain asks each resolver in order and returns the first value found.
type ConfigChain struct {
	resolvers []services.ConfigResolver
}

func NewConfigChain(resolvers ...services.ConfigResolver) *ConfigChain {
	chain := &ConfigChain{}
	for _, r := range resolvers {
		if r != nil {
			chain.resolvers = append(chain.resolvers, r)
		}
	}
	return chain
}

func (c *ConfigChain) GetValue(ctx context.Context, scope, key string) (interface{}, bool, error) {
	for _, r := range c.resolvers {
		value, ok, err := r.GetValue(ctx, scope, key)
		if err != nil {
			return nil, false, fmt.Errorf("resolve %s: %w", key, err)
		}
		if ok {
			return value, true, nil
		}
	}
	return nil, false, nil
}

// ResolveSettings reads every merchant key for the scope. Missing required keys fail with ErrConfigurationMissing.
func ResolveSettings(ctx context.Context, resolver services.ConfigResolver, scope string) (*entity.MerchantSettings, error) {
	var missing []string
	var resolveErr error
	required := func(key string) string {
		value, err := stringValue(ctx, resolver, scope, key, "")
		if err != nil {
			if resolveErr == nil {
				resolveErr = err
			}
			return ""
		}
		if value == "" {
			missing = append(missing, key)
		}
		return value
	}
	settings := &entity.MerchantSettings{
		Scope:           scope,
		CommerceName:    required(KeyCommerceName),
		CommerceNum:     required(KeyCommerceNum),
		Terminal:        required(KeyTerminal),
		TransactionType: required(KeyTransactionType),
	}
	if resolveErr != nil {
		return nil, resolveErr
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: scope %s: %v", ErrConfigurationMissing, scope, missing)
	}

	var err error
	if settings.PayMethods, err = stringValue(ctx, resolver, scope, KeyPayMethods, defaultPayMethods); err != nil {
		return nil, err
	}
	if settings.Locale, err = stringValue(ctx, resolver, scope, KeyLocale, defaultLocale); err != nil {
		return nil, err
	}
	// the secret is checked when signing; building parameters does not need it
	if settings.Secret, err = stringValue(ctx, resolver, scope, KeySecret, ""); err != nil {
		return nil, err
	}
	return settings, nil
}

// CancelPendingEnabled reads the sweep flag only; unset means disabled.
func CancelPendingEnabled(ctx context.Context, resolver services.ConfigResolver, scope string) (bool, error) {
	value, ok, err := resolver.GetValue(ctx, scope, KeyCancelPendingOrders)
	if err != nil || !ok {
		return false, err
	}
	enabled, err := cast.ToBoolE(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", KeyCancelPendingOrders, err)
	}
	return enabled, nil
}

func stringValue(ctx context.Context, resolver services.ConfigResolver, scope, key, def string) (string, error) {
	value, ok, err := resolver.GetValue(ctx, scope, key)
	if err != nil {
		return "", err
	}
	if !ok || value == nil {
		return def, nil
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	if s == "" {
		return def, nil
	}
	return s, nil
}
