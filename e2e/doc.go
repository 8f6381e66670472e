package e2e

// e2e contains integration tests that go from a YAML config file on disk to
// commands run against real BadgerDB directories, plus the utility code
// required to set them up. Each "session" stands in for one run of the
// application.
