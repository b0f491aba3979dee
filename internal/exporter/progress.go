package exporter

// ProgressEvent progresso da exportação
type ProgressEvent struct {
	Stage   string `json:"stage"` // loading/simulating/writing/finishing
	Percent int    `json:"percent"`
	Message string `json:"message"`
}

func report(fn func(ProgressEvent), stage string, percent int, message string) {
	if fn == nil {
		return
	}
	fn(ProgressEvent{Stage: stage, Percent: percent, Message: message})
}
