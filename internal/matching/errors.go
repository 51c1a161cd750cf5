package matching

import "errors"

// ErrUnknownStrategy indicates a strategy name outside the registered set.
var ErrUnknownStrategy = errors.New("unknown matching strategy")

// ErrNotTrained indicates the classifier strategy was invoked before a model
// was trained or loaded. The classifier never degrades silently: an untrained
// model has no fallback that would be meaningfully comparable.
var ErrNotTrained = errors.New("classifier model is not trained")
