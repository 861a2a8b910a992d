package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port                     string `mapstructure:"PORT"`
	DatabasePath             string `mapstructure:"DATABASE_PATH"`
	JWTSecret                string `mapstructure:"JWT_SECRET"`
	DiscordBotToken          string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordAnnounceChannelID string `mapstructure:"DISCORD_ANNOUNCE_CHANNEL_ID"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "campus_events.db")

	viper.BindEnv("PORT")
	viper.BindEnv("DATABASE_PATH")
	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_ANNOUNCE_CHANNEL_ID")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}
