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

/*

Package idable implements compact 64-bit identifiers for record keys of
replicated data model. Identifiers are allocated in lock-free manner, without
central authority, and roughly sorted by allocation time.

Key features

↣ IDs allocation does not require coordination, generator is a value owned
by the application and shared by reference between goroutines.

↣ IDs fit into uint64, the native key of most storages.

↣ IDs are roughly sortable by allocation order ("time").

Identity Schema

The identifier is a pair ⟨𝒕, 𝒔⟩

	      64 - 𝒃 bit            𝒃 bit
	|---------------------|----------|
	        ⟨𝒕⟩                ⟨𝒔⟩

↣ ⟨𝒕⟩ is milliseconds since epoch ⟨𝒆⟩ (default 1637806706000, 2021-11-25).
Custom epoch keeps high bits small.

↣ ⟨𝒔⟩ is 𝒃-bit sequence (default 12 bits), 4096 identifiers per
millisecond. The width is fixed when generator is created.

There is no node fraction. Identifiers are unique within the generator
instance only, the application partitions key space if multiple processes
allocate identifiers.

Generators

↣ Seq is plain wrapping counter, the lightweight transient identifier.

↣ TimestampSeq shares free-running ⟨𝒔⟩ among callers and guards the clock
at the rollover of ⟨𝒔⟩. It is the fastest one but identifiers might collide
under sustained load (see type documentation).

↣ MonotonicSeq packs ⟨𝒕, 𝒔⟩ into a single atomic word, identifiers are
unique and strictly increasing within the process.

Clock before epoch is fatal precondition, generators panic.

	seq := idable.NewTimestampSeq()
	id := seq.NextID()
	t, s := idable.Split(id)

*/
package idable
