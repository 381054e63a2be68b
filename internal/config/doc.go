// Package config provides configuration management for the render worker.
//
// Configuration is loaded from environment variables and validated on startup.
// All configuration options have defaults suitable for development; set
// TEMPLATE_ROOT to confine path templates to one directory.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg)
package config
