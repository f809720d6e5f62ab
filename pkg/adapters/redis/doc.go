// Package redis stores viewer sessions in Redis and provides a distributed
// lock so several replicas can share them.
package redis
