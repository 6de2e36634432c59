// Package config loads the ledger configuration with Viper.
//
// Values come from, in increasing priority: the `default` struct tags, an optional
// config.yaml, an optional .env file, and environment variables. Nested keys map to
// upper-case environment names with underscores:
//
//	storage.driver       -> STORAGE_DRIVER
//	sync.conflict_policy -> SYNC_CONFLICT_POLICY
//	currency.cascade     -> CURRENCY_CASCADE
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Server.GRPCPort)
package config
