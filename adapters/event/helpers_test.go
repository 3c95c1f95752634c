package event

import "github.com/khoahotran/tag-service/internal/config"

func configWithBrokers(brokers []string) config.Config {
	var cfg config.Config
	cfg.Kafka.Brokers = brokers
	return cfg
}
