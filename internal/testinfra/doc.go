// Package testinfra starts throwaway servers for integration tests.
//
// Tests that use it carry the ftpintegration build tag and skip when
// Docker is unavailable.
package testinfra
