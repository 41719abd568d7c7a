package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// SaleFlags covers the sale parameters and the on-disk artifacts.

func SaleFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "preset",
			Usage: "Sale rules preset (mainnet|fake)",
			Value: "mainnet",
		},
		cli.Uint64Flag{
			Name:  "sale.start",
			Usage: "Auction opening time as a Unix timestamp (fake preset only)",
		},
		cli.StringFlag{
			Name:  "sale.owner",
			Usage: "Owner address allowed to call admin operations",
		},
		cli.StringFlag{
			Name:  "sale.account",
			Usage: "Sale account holding STARS proceeds and the rebate float",
		},
		cli.StringFlag{
			Name:  "sale.allowlistroot",
			Usage: "Merkle root of the presale allow list (0x-prefixed hash)",
		},
		cli.BoolFlag{
			Name:  "sale.public",
			Usage: "Enable the public sale window",
		},
		cli.StringFlag{
			Name:  "journal.path",
			Usage: "Override the sale journal path (defaults to <datadir>/journal.db)",
		},
		cli.StringFlag{
			Name:  "snapshot.path",
			Usage: "Override the snapshot path (defaults to <datadir>/sale.json)",
		},
	}
}
