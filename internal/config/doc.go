// Package config resolves the converter settings from the environment.
//
// Settings are loaded once at process start and never change afterwards.
// Malformed values fail the load; a missing ENCRYPT_KEY does not, it only
// surfaces when a private key is encrypted or decrypted.
package config
