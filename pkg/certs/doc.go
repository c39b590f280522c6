// Package certs provisions the TLS material of a fixture by shelling out
// to openssl.
//
// A Provisioner owns one cache directory holding a self-signed root CA and
// any number of leaf certificates signed by it. Certificates are reused when
// both the .crt and .key files exist. New pairs are produced in a private
// temporary directory and renamed into the cache only after every openssl
// step exited successfully, so an interrupted or failed run never leaves a
// pair that would later be mistaken for a valid one.
//
// Leaf certificates are signed with serial number 0. Each fixture tree gets
// its own CA, so serials never need to be distinguished.
package certs
