package config

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

const parameterTimeout = 5 * time.Second

// parameterLookup is swapped out in tests.
var parameterLookup = getParameterStoreValue

// ResolveSecrets fills Alpaca credentials from AWS SSM Parameter Store for
// every *_parameter key that is set. Plain values are left untouched otherwise.
func ResolveSecrets(ctx context.Context, cfg *Config) error {
	targets := []struct {
		name string
		dst  *string
	}{
		{cfg.Alpaca.KeyIDParameter, &cfg.Alpaca.KeyID},
		{cfg.Alpaca.KeySecretParameter, &cfg.Alpaca.KeySecret},
	}

	for _, t := range targets {
		if t.name == "" {
			continue
		}
		value, err := parameterLookup(ctx, t.name, true)
		if err != nil {
			return fmt.Errorf("resolve parameter %s: %w", t.name, err)
		}
		*t.dst = value
	}
	return nil
}

func getParameterStoreValue(ctx context.Context, parameterName string, decrypt bool) (string, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, parameterTimeout)
	defer cancel()

	cfg, err := awsconfig.LoadDefaultConfig(ctxWithTimeout)
	if err != nil {
		return "", fmt.Errorf("load aws config: %w", err)
	}

	client := ssm.NewFromConfig(cfg)

	result, err := client.GetParameter(ctxWithTimeout, &ssm.GetParameterInput{
		Name:           aws.String(parameterName),
		WithDecryption: aws.Bool(decrypt),
	})
	if err != nil {
		return "", fmt.Errorf("get parameter: %w", err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil {
		return "", fmt.Errorf("parameter %s has no value", parameterName)
	}

	return aws.ToString(result.Parameter.Value), nil
}
