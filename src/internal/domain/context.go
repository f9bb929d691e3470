package domain

// Config holds everything the process needs to serve. It is built once at
// startup and immutable afterwards.
type Config struct {
	Version    string
	Host       string
	Port       string
	Root       string // absolute path of the directory being served
	LiveReload bool
	Verbose    bool
}

type Context struct {
	Config Config
}
