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

import "fmt"

// NoBufferPanicMsg is raised when the history buffer cell is found empty
// after initialization should have filled it.
const NoBufferPanicMsg = "Buffers have not been initialized or are not currently available in mutex"

// DetectionMsg carries the counter value of a confirmed contact to the
// supervisor, which logs it on the Normal to Alert transition. The text
// format is stable; external tooling greps for it.
type DetectionMsg struct {
	index uint32
}

// CreateDetectionMsg captures the index of the sample that confirmed the
// contact, i.e. the most recent insertion.
func CreateDetectionMsg(b *Buffer) DetectionMsg {
	return DetectionMsg{index: b.DetectionIdx()}
}

func (m DetectionMsg) String() string {
	return fmt.Sprintf("contact detected on sample %d! Adding to detection events", m.index)
}
