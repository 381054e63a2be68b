package render

// Status is the outcome of the last render attempt
type Status struct {
	Code   string `json:"code"`
	Text   string `json:"text"`
	Param  string `json:"param"`
	Failed bool   `json:"failed"`
}

// failure is the status of a render that never reached the engine
func failure(err error) Status {
	return Status{Param: err.Error(), Failed: true}
}
