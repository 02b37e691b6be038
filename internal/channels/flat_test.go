// SPDX-License-Identifier: MIT

package channels

import (
	"testing"

	"github.com/Figoh-cpu/code/internal/directory"
	"github.com/Figoh-cpu/code/internal/liveness"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func rec(name, addr, group string) directory.ChannelRecord {
	return directory.ChannelRecord{Name: name, Address: addr, Group: group}
}

func TestFlatten_DropsDeadGroupsAndAppendsSuffixOnce(t *testing.T) {
	groups := []directory.Group{
		{Name: "GroupA", Channels: []directory.ChannelRecord{rec("Chan1", "http://x/1", "GroupA")}},
		{Name: "GroupB", Channels: []directory.ChannelRecord{rec("Chan2", "http://x/2", "GroupB")}},
	}
	results := []liveness.Result{
		{Group: "GroupA", IsLive: true, Probed: true},
		{Group: "GroupB", IsLive: false, Probed: true},
	}

	flat, st := Flatten(groups, results)

	want := []FlatChannel{{Name: "Chan1", RawAddress: "http://x/1", Address: "http://x/1$GroupA", Group: "GroupA"}}
	if diff := cmp.Diff(want, flat); diff != "" {
		t.Fatalf("flat mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Stats{LiveGroups: 1, Records: 1}, st)
}

func TestFlatten_FirstOccurrenceAcrossGroupsWins(t *testing.T) {
	groups := []directory.Group{
		{Name: "A", Channels: []directory.ChannelRecord{
			rec("CCTV1", "http://x/1", "A"),
			rec("CCTV1", "http://x/1", "A"),
			rec("CCTV2", "http://x/2", "A"),
		}},
		{Name: "B", Channels: []directory.ChannelRecord{
			rec("CCTV1", "http://x/1", "B"),
			rec("CCTV1", "http://y/1", "B"),
		}},
	}
	results := []liveness.Result{{Group: "A", IsLive: true}, {Group: "B", IsLive: true}}

	flat, st := Flatten(groups, results)

	got := make([]string, 0, len(flat))
	for _, c := range flat {
		got = append(got, c.Name+","+c.Address)
	}
	assert.Equal(t, []string{
		"CCTV1,http://x/1$A",
		"CCTV2,http://x/2$A",
		"CCTV1,http://y/1$B",
	}, got)
	assert.Equal(t, 2, st.Duplicates)
	assert.Equal(t, 5, st.Records)
}

func TestFlatten_NoLiveGroups(t *testing.T) {
	groups := []directory.Group{{Name: "A", Channels: []directory.ChannelRecord{rec("a", "http://a", "A")}}}
	flat, st := Flatten(groups, []liveness.Result{{Group: "A"}})
	assert.Empty(t, flat)
	assert.Zero(t, st.LiveGroups)
}

func TestDedupe_Idempotent(t *testing.T) {
	in := []FlatChannel{
		NewFlatChannel(rec("a", "http://1", "G")),
		NewFlatChannel(rec("b", "http://2", "G")),
		NewFlatChannel(rec("a", "http://1", "H")),
		NewFlatChannel(rec("a", "http://3", "G")),
		NewFlatChannel(rec("b", "http://2", "G")),
	}

	once := Dedupe(in)
	twice := Dedupe(once)

	assert.Len(t, once, 3)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("dedupe not idempotent (-once +twice):\n%s", diff)
	}
	assert.Equal(t, "http://1$G", once[0].Address)
}

func TestNewFlatChannel_AddressContainingSeparator(t *testing.T) {
	fc := NewFlatChannel(rec("x", "http://h/p$q", "G"))
	assert.Equal(t, "http://h/p$q$G", fc.Address)
	assert.Equal(t, "http://h/p$q", fc.RawAddress)
}
