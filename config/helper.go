package config

import (
	"log"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

func getInt32Env(key string, fallback int32) int32 {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
		log.Printf("Invalid int32 for %s, using fallback", key)
	}
	return fallback
}

// getDecimalEnv parses money and rate settings exactly.
func getDecimalEnv(key string, fallback decimal.Decimal) decimal.Decimal {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
		log.Printf("Invalid decimal for %s, using fallback", key)
	}
	return fallback
}
