/*
Copyright 2023 The WKO Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package healthcheck

import (
	"github.com/go-logr/logr"
)

// DiagnosticSink receives the warning diagnostics raised during a
// verification run. A denial is a data outcome, not an error; the sink is how
// it reaches whoever operates the operator.
type DiagnosticSink interface {
	Warning(message string, keysAndValues ...interface{})
}

// LogSink writes diagnostics through a logr.Logger.
type LogSink struct {
	Logger logr.Logger
}

func (s LogSink) Warning(message string, keysAndValues ...interface{}) {
	s.Logger.Info(message, keysAndValues...)
}
