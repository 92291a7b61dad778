package mock

import "github.com/randalmurphal/llmcore/provider"

func init() {
	provider.Register("echo", func(cfg provider.Config) (provider.Client, error) {
		return NewEcho(WithPrefix(cfg.GetStringOption("prefix", DefaultPrefix))), nil
	})

	// Options: "responses" (list of scripted outputs), "chunk_size".
	provider.Register("scripted", func(cfg provider.Config) (provider.Client, error) {
		m := NewScripted("")
		if responses := cfg.GetStringSliceOption("responses"); len(responses) > 0 {
			m.WithResponses(responses...)
		}
		return m.WithChunks(cfg.GetIntOption("chunk_size", 0)), nil
	})
}
