package discord_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/clanmove/internal/adapters/discord"
)

func TestSplitBlocks(t *testing.T) {
	Convey("Given formatter blocks and a message limit", t, func() {
		Convey("When every block fits, each becomes one message", func() {
			msgs := discord.SplitBlocks([]string{"alpha", "beta"}, 100)

			So(msgs, ShouldResemble, []string{"alpha", "beta"})
		})

		Convey("When the input is empty, no messages come out", func() {
			So(discord.SplitBlocks(nil, 100), ShouldBeEmpty)
			So(discord.SplitBlocks([]string{"", ""}, 100), ShouldBeEmpty)
		})

		Convey("When a block exceeds the limit, it splits at line boundaries", func() {
			block := strings.Join([]string{
				"**RGR** — 3 to move",
				"• Anna — Trophies 9000",
				"• Boris — Trophies 8000",
				"• Chen — Trophies 7000",
			}, "\n")

			msgs := discord.SplitBlocks([]string{block}, 60)

			So(len(msgs), ShouldBeGreaterThan, 1)
			for _, msg := range msgs {
				So(len(msg), ShouldBeLessThanOrEqualTo, 60)
			}

			Convey("And no line is ever cut in half", func() {
				var lines []string
				for _, msg := range msgs {
					lines = append(lines, strings.Split(msg, "\n")...)
				}
				So(lines, ShouldResemble, strings.Split(block, "\n"))
			})
		})

		Convey("When a single line exceeds the limit, it is truncated", func() {
			msgs := discord.SplitBlocks([]string{strings.Repeat("x", 50)}, 10)

			So(len(msgs), ShouldEqual, 1)
			So(len(msgs[0]), ShouldBeLessThanOrEqualTo, 10)
		})

		Convey("When truncation lands inside a multi-byte rune, the whole rune is dropped", func() {
			// "xxxx" + 3-byte check mark; a byte cut at 6 would split it.
			line := "xxxx✅xxxx"

			msgs := discord.SplitBlocks([]string{line}, 6)

			So(len(msgs), ShouldEqual, 1)
			So(utf8.ValidString(msgs[0]), ShouldBeTrue)
			So(msgs[0], ShouldEqual, "xxxx")
		})
	})
}
