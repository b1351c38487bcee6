/*

  Copyright 2012 Dmitry Kolesnikov, All Rights Reserved

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

package idable

/*

Generator is the identifier allocator. Implementations are safe for
concurrent use and never fail, broken preconditions (e.g. clock before
epoch) are fatal.
*/
type Generator interface {
	NextID() uint64
}

var (
	_ Generator = (*Seq)(nil)
	_ Generator = (*TimestampSeq)(nil)
	_ Generator = (*MonotonicSeq)(nil)
)
