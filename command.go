/*
Copyright (c) 2018 Ham, Yeongtaek <yeongtaek.ham@gmail.com>.

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

package chatteroo

// Transmission is the complete unit exchanged on-air: the protocol
// version, the network the sender belongs to, the sender's own station
// identifier, and the command payload.
type Transmission struct {
	Version ChatterooVersion
	Network Network
	Sender  Station
	Command Command
}

// Command is the tagged union of all 17 synchronization messages
// Chatteroo stations exchange. Each concrete type below implements it
// and owns a Tag() returning its position in the variant table of
// §4.5. The wire codec type-switches on Command to encode, and reads
// the tag out of the command byte to pick which concrete type to
// decode into - callers handling a Command exhaustively should type
// switch the same way.
type Command interface {
	Tag() uint8
}

// Status announces what data a station has for the surrounding epochs
// plus a short list of stations it has heard from most recently ("quick
// sync" candidates).
type Status struct {
	EpochNowMod8  uint8
	Epoch4AgoCRC  uint32
	Epoch3AgoCRC  uint32
	Epoch2AgoCRC  uint32
	Epoch1AgoCRC  uint32
	EpochNowCRC   uint32
	EpochNextCRC  uint32
	RecentlyAdded []StationSparse
}

// Tag implements Command.
func (Status) Tag() uint8 { return 0 }

// StationSparse pairs a station with a subset of the data frames known
// from them in the epoch implied by the surrounding command.
type StationSparse struct {
	Station Station
	Top     uint16
	Bottom  uint16
}

// Range announces which other stations are in radio range, and whether
// each one is known to hear the sender back ("mutual").
type Range struct {
	FinalPage uint8
	Page      uint8
	Stations  []StationHeard
}

// Tag implements Command.
func (Range) Tag() uint8 { return 1 }

// StationHeard is a station the sender can hear, plus whether the
// sender believes that station can hear it back.
type StationHeard struct {
	Station  Station
	IsMutual bool
}

// InsertFrame announces a data frame the sender itself produced.
type InsertFrame struct {
	Frame FrameWithMetadata
}

// Tag implements Command.
func (InsertFrame) Tag() uint8 { return 2 }

// FrameWithMetadata is a single data frame plus its placement metadata.
type FrameWithMetadata struct {
	EpochMod8      uint8
	Index          uint16
	StartOfMessage bool
	EndOfMessage   bool
	Application    uint8
	Data           []byte
}

// RepeatFrame relays a data frame originally inserted by someone else.
type RepeatFrame struct {
	Station Station
	Frame   FrameWithMetadata
}

// Tag implements Command.
func (RepeatFrame) Tag() uint8 { return 3 }

// FrameRequest asks a specific station to (re)transmit one frame it
// holds, identified by who inserted it, which epoch, and which index.
type FrameRequest struct {
	Target    Station
	Inserter  Station
	EpochMod8 uint8
	Index     uint16
}

// QuickSyncFrameRequest opportunistically asks for one precisely
// identified frame a station believes it is missing.
type QuickSyncFrameRequest struct {
	Request FrameRequest
}

// Tag implements Command.
func (QuickSyncFrameRequest) Tag() uint8 { return 4 }

// QuickSyncFrameResponse answers a QuickSyncFrameRequest (or a
// BackfillFrameRequest) with the requested frame.
type QuickSyncFrameResponse struct {
	Station Station
	Frame   FrameWithMetadata
}

// Tag implements Command.
func (QuickSyncFrameResponse) Tag() uint8 { return 5 }

// BackfillFrameRequest asks for a single frame as part of systematic
// epoch reconciliation, rather than opportunistic quick sync.
type BackfillFrameRequest struct {
	Request FrameRequest
}

// Tag implements Command.
func (BackfillFrameRequest) Tag() uint8 { return 6 }

// BackfillFrameResponse answers a BackfillFrameRequest.
type BackfillFrameResponse struct {
	Station Station
	Frame   FrameWithMetadata
}

// Tag implements Command.
func (BackfillFrameResponse) Tag() uint8 { return 7 }

// EpochRequest asks a target station to summarize what it holds for a
// given epoch, either via QuickEpochResponse or EpochResponse.
type EpochRequest struct {
	Target    Station
	EpochMod8 uint8
}

// Tag implements Command.
func (EpochRequest) Tag() uint8 { return 8 }

// QuickEpochResponse summarizes an epoch's content station-by-station.
// Used instead of EpochResponse while the network is small enough that
// every station fits in one transmission's budget.
type QuickEpochResponse struct {
	EpochMod8 uint8
	Stations  []StationSummary
}

// Tag implements Command.
func (QuickEpochResponse) Tag() uint8 { return 9 }

// StationSummary reports one station's known frame range and a
// checksum of its data, within the epoch implied by the surrounding
// command.
type StationSummary struct {
	Station  Station
	Top      uint16
	Bottom   uint16
	EpochCRC uint32
}

// EpochResponse summarizes an epoch by sorting its stations into 16
// buckets (by Station.Bucket) and checksumming each bucket's content.
// Used once QuickEpochResponse would no longer fit the frame budget.
type EpochResponse struct {
	EpochMod8 uint8
	Checksums [16]uint32
}

// Tag implements Command.
func (EpochResponse) Tag() uint8 { return 10 }

// BucketContentRequest asks a target station to list the station
// identifiers (and their checksums) within one bucket of a given epoch.
type BucketContentRequest struct {
	Target    Station
	EpochMod8 uint8
	Bucket    uint8
	Page      uint8
}

// Tag implements Command.
func (BucketContentRequest) Tag() uint8 { return 11 }

// BucketContentResponse answers a BucketContentRequest, possibly across
// several pages.
type BucketContentResponse struct {
	EpochMod8 uint8
	FinalPage uint8
	Page      uint8
	Stations  []StationSummary
}

// Tag implements Command.
func (BucketContentResponse) Tag() uint8 { return 12 }

// StationDataRequest asks a target station to list the frame ranges it
// holds that were inserted by a particular station during a particular
// epoch, starting from a given index for stable pagination.
type StationDataRequest struct {
	Target    Station
	Station   Station
	EpochMod8 uint8
	FromIndex uint16
}

// Tag implements Command.
func (StationDataRequest) Tag() uint8 { return 13 }

// StationDataResponse answers a StationDataRequest with the known
// contiguous frame ranges for the requested station, paginated if
// EndOfData is false.
type StationDataResponse struct {
	Station   Station
	EpochMod8 uint8
	EndOfData bool
	Ranges    []ContiguousRange
}

// Tag implements Command.
func (StationDataResponse) Tag() uint8 { return 14 }

// ContiguousRange is an inclusive [Bottom, Top] span of frame indices.
type ContiguousRange struct {
	Top    uint16
	Bottom uint16
}

// PingRequest asks a target station for a liveness/diagnostic reply.
// Pings never count as a "heard station" for sync purposes; they exist
// purely for manual operator use.
type PingRequest struct {
	Target Station
}

// Tag implements Command.
func (PingRequest) Tag() uint8 { return 15 }

// PingResponse answers a PingRequest with a short diagnostic string,
// conventionally a software name and version.
type PingResponse struct {
	Target     Station
	Diagnostic string
}

// Tag implements Command.
func (PingResponse) Tag() uint8 { return 16 }
