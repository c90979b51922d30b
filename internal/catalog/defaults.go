package catalog

func DefaultTokens() []Token {
	return []Token{
		{Label: "BTC", ID: "bitcoin"},
		{Label: "ETH", ID: "ethereum"},
		{Label: "SOL", ID: "solana"},
		{Label: "BNB", ID: "binancecoin"},
		{Label: "DOGE", ID: "dogecoin"},
	}
}

func DefaultFAQ() []FAQEntry {
	return []FAQEntry{
		{
			ID:       "q1",
			Question: "What is a cryptocurrency?",
			Answer:   "A cryptocurrency is a digital currency with no physical form and no single controlling authority. It lives on a blockchain, a chain of blocks holding transaction data.",
		},
		{
			ID:       "q2",
			Question: "What is a blockchain?",
			Answer:   "A blockchain is a continuous chain of data blocks. Every block stores information plus a link to the previous one, which makes it possible to trace the full history of an asset's purchases and sales.",
		},
		{
			ID:       "q3",
			Question: "What is mining?",
			Answer:   "Mining is producing cryptocurrency with computing hardware that solves the puzzles confirming transactions. Miners are rewarded for adding blocks to the blockchain, which keeps the network secure.",
		},
		{
			ID:       "q4",
			Question: "What are tokens and which types exist?",
			Answer:   "A token is a blockchain-based digital asset. Unlike a coin, a token has no blockchain of its own. Common types: altcoins, stablecoins, governance tokens and non-fungible tokens (NFT).",
		},
	}
}

func DefaultGreetings() []string {
	return []string{"привет", "приветик", "hello", "hi", "хэлоу"}
}

func DefaultFarewells() []string {
	return []string{"пока", "до свидания", "bye", "пакеда"}
}
