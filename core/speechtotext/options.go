package speechtotext

const (
	DefaultLanguage        = "ar-SA"
	DefaultMaxAlternatives = 5
)

type RecognitionOptions struct {
	Language        string
	MaxAlternatives int

	// ResultCallback receives ranked alternatives, best first.
	ResultCallback func(alternatives []string)
	ErrorCallback  func(err error)
	// EndCallback runs exactly once per attempt, after any result or error.
	EndCallback func()
}

type RecognitionOption func(*RecognitionOptions)

// NewRecognitionOptions applies opts over the defaults. Missing callbacks
// are replaced with no-ops so recognizers can call them unconditionally.
func NewRecognitionOptions(opts ...RecognitionOption) RecognitionOptions {
	options := RecognitionOptions{
		Language:        DefaultLanguage,
		MaxAlternatives: DefaultMaxAlternatives,
	}
	for _, opt := range opts {
		opt(&options)
	}

	if options.ResultCallback == nil {
		options.ResultCallback = func([]string) {}
	}
	if options.ErrorCallback == nil {
		options.ErrorCallback = func(error) {}
	}
	if options.EndCallback == nil {
		options.EndCallback = func() {}
	}
	return options
}

func WithLanguage(language string) RecognitionOption {
	return func(o *RecognitionOptions) {
		if language != "" {
			o.Language = language
		}
	}
}

func WithMaxAlternatives(n int) RecognitionOption {
	return func(o *RecognitionOptions) {
		if n > 0 {
			o.MaxAlternatives = n
		}
	}
}

func WithResultCallback(callback func(alternatives []string)) RecognitionOption {
	return func(o *RecognitionOptions) {
		o.ResultCallback = callback
	}
}

func WithErrorCallback(callback func(err error)) RecognitionOption {
	return func(o *RecognitionOptions) {
		o.ErrorCallback = callback
	}
}

func WithEndCallback(callback func()) RecognitionOption {
	return func(o *RecognitionOptions) {
		o.EndCallback = callback
	}
}
