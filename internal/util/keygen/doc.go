// Package keygen generates SSH key pairs.
//
// Private keys are PEM encoded, public keys use the OpenSSH authorized_keys
// format. The init wizard uses it to create a deploy key for non-Vagrant
// environments, and the SSH tests use it for throwaway identities.
package keygen
