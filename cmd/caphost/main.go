// Command caphost runs the capability host and the remote bundle provider.
//
// caphost render mounts a capability, probes the configured provider,
// loads the remote bundle (or falls back), and prints what rendered.
// caphost serve runs the provider side, publishing a bundle at the entry
// path hosts probe and fetch.
package main

func main() {
	Execute()
}
