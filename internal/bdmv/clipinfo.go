package bdmv

import "fmt"

type clipInfoRecord struct {
	version   string
	packets   uint32
	startTime uint64
	streams   []StreamInfo
}

func lookupClipInfo(id string, raw map[string][]byte, decoded map[string]clipInfoRecord) (clipInfoRecord, error) {
	if rec, ok := decoded[id]; ok {
		return rec, nil
	}
	buf, ok := raw[id]
	if !ok {
		return clipInfoRecord{}, fmt.Errorf("clip info %q: %w", id, ErrNotFound)
	}
	rec, err := parseClipInfo(id, buf)
	if err != nil {
		return clipInfoRecord{}, err
	}
	decoded[id] = rec
	return rec, nil
}

func parseClipInfo(id string, buf []byte) (clipInfoRecord, error) {
	var rec clipInfoRecord
	r := newReader(buf, "clip "+id)
	var err error
	if rec.version, err = r.header(clipInfoMagic); err != nil {
		return rec, err
	}
	if rec.packets, err = r.u32(); err != nil {
		return rec, err
	}
	start, err := r.u32()
	if err != nil {
		return rec, err
	}
	rec.startTime = uint64(start) * 2

	count, err := r.u8()
	if err != nil {
		return rec, err
	}
	if err := r.need(int(count) * streamRecordSz); err != nil {
		return rec, err
	}
	rec.streams = make([]StreamInfo, 0, count)
	for i := 0; i < int(count); i++ {
		var s StreamInfo
		kind, _ := r.u8()
		s.Kind = StreamKind(kind)
		s.CodingType, _ = r.u8()
		s.Format, _ = r.u8()
		s.Rate, _ = r.u8()
		s.CharCode, _ = r.u8()
		s.Language, _ = r.fixedID(3)
		s.PID, _ = r.u16()
		s.Aspect, _ = r.u8()
		s.SubpathID, _ = r.u8()
		rec.streams = append(rec.streams, s)
	}
	return rec, nil
}
