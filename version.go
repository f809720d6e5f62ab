package blogs

// Version is the release of the library and binaries.
// Release builds override it with -ldflags "-X github.com/ts1257/acme-blogs.Version=...".
var Version = "0.3.0"
