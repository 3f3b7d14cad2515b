/*
 * Copyright 2025 Ted Dunning
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package trace formats log lines the same way the rest of this codebase
// already does, over fmt.Printf against the semihosted console: there is
// no structured logging library in the dependency set that links against
// a bare-metal tinygo target, so this just gives the teacher's ad hoc
// fmt.Printf("Error ...") / fmt.Printf("... complete") calls one call site
// per severity instead of repeating the prefix everywhere.
package trace

import "fmt"

// Debug logs a low-priority trace line, used for the optional 250-sample
// window dump and similar diagnostics.
func Debug(format string, args ...any) {
	fmt.Printf("debug: "+format+"\n", args...)
}

// Info logs a normal operational message.
func Info(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}

// Warn logs a recoverable condition, e.g. MODE_MISUSE.
func Warn(format string, args ...any) {
	fmt.Printf("warn: "+format+"\n", args...)
}

// Error logs a condition that is about to be (or has been) escalated to
// the supervisor's Error mode.
func Error(format string, args ...any) {
	fmt.Printf("error: "+format+"\n", args...)
}
