package cmd

// Options holds the shared command-line options for the ghrecap CLI.
type Options struct {
	Users     []string
	From      string // Window start date (YYYY-MM-DD)
	To        string // Window end date (YYYY-MM-DD), included in full
	Days      int    // Window length when no explicit dates are given
	Format    string
	Verbosity int
	MaxPages  int // Activity feed pages fetched per user
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithUsers sets the usernames to summarize.
func WithUsers(users []string) Option {
	return func(o *Options) {
		o.Users = users
	}
}

// WithWindow sets the explicit window dates (YYYY-MM-DD).
func WithWindow(from, to string) Option {
	return func(o *Options) {
		o.From = from
		o.To = to
	}
}

// WithDays sets the window length in days when no explicit dates are given.
func WithDays(days int) Option {
	return func(o *Options) {
		o.Days = days
	}
}

// WithFormat sets the output format (table, json, markdown).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithMaxPages sets the number of activity feed pages fetched per user.
func WithMaxPages(pages int) Option {
	return func(o *Options) {
		o.MaxPages = pages
	}
}
