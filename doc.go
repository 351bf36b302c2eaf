// Package apetag reads, edits, and writes APEv2 tags.
//
// APEv2 is the metadata format of Monkey's Audio, WavPack, and Musepack
// files, and is also found in MP3 files just before an ID3v1 trailer. A tag
// is a list of key/value items framed by a 32-byte footer and an optional
// header of the same shape.
//
// # Quick Start
//
// Reading the tag of a file:
//
//	file, err := apetag.Open("song.wv")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%s - %s\n", file.Tag.Artist(), file.Tag.Title())
//
// Building a tag from scratch:
//
//	tag := apetag.New()
//	tag.SetTitle("Hello")
//	tag.SetTrack(3)
//	blob := tag.Render() // header, items, footer
//
// # Two Views of a Tag
//
// The item map is the native view. Keys are compared case-insensitively
// and stored upper case, items keep their insertion order, and every item
// has a type (Text, Binary, or Locator):
//
//	for key, item := range tag.ItemMap().All() {
//		fmt.Println(key, item.Type(), item.Values())
//	}
//
// The property map is the portable view. APE spellings are translated to
// generic names (TRACK becomes TRACKNUMBER, YEAR becomes DATE) and only
// Text items are included. Binary and Locator items are listed by key in
// the unsupported channel:
//
//	props := tag.Properties()
//	props.Set("ARTIST", "A", "B")
//	rejected := tag.SetProperties(props)
//
// # Error Handling
//
// Reading never fails on malformed tag data. A footer with an impossible
// size leaves the tag empty, and a damaged item list keeps the items read
// before the damage. Both are reported as warnings:
//
//	for _, w := range file.Tag.Warnings() {
//		log.Printf("warning: %s", w)
//	}
//
// Only I/O failures are returned as errors. Attach a logger with WithLogger
// to see debug notes for skipped items and rejected keys.
//
// # Concurrency
//
// A Tag is not safe for concurrent mutation. OpenMany reads many files in
// parallel, one Tag per file.
package apetag
