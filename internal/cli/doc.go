// Package cli wires configuration, adapters and boards together for the acme-blogs commands.
package cli
