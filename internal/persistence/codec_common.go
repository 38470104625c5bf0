// File: internal/persistence/codec_common.go
// Project: UNIVERSE
// Description: Wire encoding for the small value types shared across every
//              persisted message: UID, Vec3, Sector.
package persistence

import "github.com/JoshuaAFerguson/universe/internal/models"

func encodeUID(id models.UID) []byte {
	var b []byte
	b = putFixed64(b, 1, id.Hi)
	b = putFixed64(b, 2, id.Lo)
	return b
}

func decodeUID(data []byte) (models.UID, error) {
	var id models.UID
	err := eachField(data, func(f field) error {
		switch f.num {
		case 1:
			id.Hi = f.u64
		case 2:
			id.Lo = f.u64
		}
		return nil
	})
	return id, err
}

func encodeVec3(v models.Vec3) []byte {
	var b []byte
	b = putFloat64(b, 1, v.X)
	b = putFloat64(b, 2, v.Y)
	b = putFloat64(b, 3, v.Z)
	return b
}

func decodeVec3(data []byte) (models.Vec3, error) {
	var v models.Vec3
	err := eachField(data, func(f field) error {
		switch f.num {
		case 1:
			v.X = f.asFloat64()
		case 2:
			v.Y = f.asFloat64()
		case 3:
			v.Z = f.asFloat64()
		}
		return nil
	})
	return v, err
}

func encodeSector(s models.Sector) []byte {
	var b []byte
	b = putInt(b, 1, s.X)
	b = putInt(b, 2, s.Y)
	b = putInt(b, 3, s.Z)
	return b
}

func decodeSector(data []byte) (models.Sector, error) {
	var s models.Sector
	err := eachField(data, func(f field) error {
		switch f.num {
		case 1:
			s.X = f.asInt()
		case 2:
			s.Y = f.asInt()
		case 3:
			s.Z = f.asInt()
		}
		return nil
	})
	return s, err
}
