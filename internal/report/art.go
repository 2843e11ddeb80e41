package report

import "lemonade/internal/game"

const standArt = `
         $
        / \
       /___\
      |STAND|
      |     |
      |_____|`

func weatherArt(w game.Weather) string {
	switch w {
	case game.Sunny:
		return `    \   /
     .-.
  - (   ) -
     '-'
    /   \`
	case game.HotDry:
		return `    \   /
     .-.
  - (   ) -
     '-'
   ~ ~ ~ ~`
	case game.Cloudy:
		return `   .--.
  .-(    ).
 (___.__)__)`
	case game.Thunderstorm:
		return `   .--.
  .-(    ).
 (___.__)__)
   / / / /
   ' ' ' '`
	default:
		return ""
	}
}
