// Package config loads the YAML configuration shared by the acme-blogs commands.
//
//	api:
//	  base_url: https://jsonplaceholder.typicode.com
//	  timeout: 10s
//	board:
//	  failure_policy: skip
//	  concurrency: 4
//	redis:
//	  addr: localhost:6379
//	  ttl: 24h
//
// Command-line flags override file values.
package config
