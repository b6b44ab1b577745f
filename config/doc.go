// Package config loads speechkit configuration with Viper.
//
// Values come from a YAML file, then a .env file, then the process
// environment. Only variables carrying the SPEECHKIT_ prefix are bound;
// SPEECHKIT_LOCAL_MODELS_DIR sets local.models_dir.
//
//	var cfg AppConfig
//	err := config.LoadConfig("speechkit", &cfg, config.WithConfigFile(path))
package config
