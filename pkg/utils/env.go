package utils

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// LoadConfig reads an optional .env file from path and makes every variable
// available through viper. Missing .env is not an error; deployments usually
// configure through the real environment.
func LoadConfig(path string) {
	envFile := path + "/.env"
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			logrus.WithError(err).Warn("[CONFIG] failed to load .env file")
		}
	}
	viper.AutomaticEnv()
}
