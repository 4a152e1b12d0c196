// Package zipstream reads ZIP archives with a focus on streaming support.
//
// Entries are decoded incrementally: an [EntryReader] pulls decompressed
// bytes on demand, feeds every byte it returns into a running CRC-32, and
// transparently detects and strips the optional trailing data descriptor
// that streamed ZIP writers append when sizes and checksum were unknown at
// write time. Bytes the decoder's input buffering pre-fetched past the true
// end of an entry are handed back to the underlying source, so sequential
// entries read from a forward-only stream always start at the right offset.
//
// Two reading approaches are provided:
//   - Seekable sources ([NewReader], [NewBytesReader], [OpenFile]): the
//     central directory drives entry lookup and each entry can be opened
//     independently.
//   - Forward-only streams ([NewStreamReader]): entries are yielded in
//     wire order and must be drained one at a time.
//
// # Quick Start
//
// Read a named entry from a file on disk:
//
//	r, err := zipstream.OpenFile("archive.zip")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	er, err := r.OpenEntryName("config.json")
//	if err != nil {
//	    return err
//	}
//	content, err := er.ReadAll() // CRC-32 verified
//
// Stream entries from a network connection:
//
//	sr := zipstream.NewStreamReader(conn)
//	for {
//	    er, err := sr.NextEntry()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    if _, err := er.CopyTo(dst, 64<<10); err != nil {
//	        return err
//	    }
//	}
//
// # Integrity
//
// Checksum verification never happens implicitly. The whole-entry helpers
// ([EntryReader.ReadAll], [EntryReader.ReadAllString], [EntryReader.CopyTo])
// integrate the final check; callers driving [EntryReader.Read] directly
// call [EntryReader.CompareCRC32] after reaching end of data.
//
// Supported compression methods: Stored, Deflate, BZip2, LZMA, Zstd, and XZ.
// Decryption and ZIP64 extensions are not supported.
package zipstream
