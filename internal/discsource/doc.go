// Package discsource serves disc folders to playback sessions.
//
// A disc folder holds BDMV/index.nav, one BDMV/CLIPINF/<id>.cnav per clip
// and the clip payloads under BDMV/STREAM/<id>.m2ts. Paths naming a block
// device resolve to the device's mount point through /proc/mounts. Clip
// files open lazily on first read and stay open until Close.
package discsource
