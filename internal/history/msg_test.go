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

package history

import "testing"

// The message text is load-bearing: external tooling greps the trace
// transport for this exact format.
func Test_DetectionMsg_format(t *testing.T) {
	var b Buffer
	for i := 0; i < 5; i++ {
		if err := b.Insert(42); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	msg := CreateDetectionMsg(&b)
	want := "contact detected on sample 4! Adding to detection events"
	if got := msg.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
