// Package schema holds the static description of the dataset: tables, columns,
// index notes, domain vocabulary, and a corpus of worked example queries. It is
// pure data, loaded once at startup and never mutated afterwards.
package schema

import (
	"fmt"
	"strings"
)

// Table describes one logical table. Partitioned tables are materialized once
// per chain with the partition key appended as a suffix (blocks -> blocks_base);
// non-partitioned tables exist exactly once and keep their bare name.
type Table struct {
	Name        string
	Description string
	Columns     []string
	IndexNote   string
	Partitioned bool
}

// Descriptor is the full dataset description fed into prompt composition.
type Descriptor struct {
	Tables   []Table
	Glossary string
	Examples []Example
}

// Example pairs a natural-language intent with the SQL that answers it. SQL is
// a format string with a single %[1]s verb for the partition suffix.
type Example struct {
	Intent string
	SQL    string
}

// PhysicalName returns the table name a query must reference for the given
// partition key.
func (t Table) PhysicalName(partitionKey string) string {
	if !t.Partitioned {
		return t.Name
	}
	return t.Name + "_" + partitionKey
}

// Text renders the schema description with table names bound to the partition
// key, in the numbered layout the generation prompt embeds verbatim.
func (d Descriptor) Text(partitionKey string) string {
	var b strings.Builder
	b.WriteString("The database schema consists of the following tables:\n")
	for i, table := range d.Tables {
		fmt.Fprintf(&b, "%d. **%s**: %s\n", i+1, table.PhysicalName(partitionKey), table.Description)
		fmt.Fprintf(&b, "   - Columns: %s.\n", strings.Join(table.Columns, ", "))
		if table.IndexNote != "" {
			fmt.Fprintf(&b, "   - %s\n", table.IndexNote)
		}
	}
	return b.String()
}

// ExamplesText renders the worked-example corpus with table names bound to the
// partition key.
func (d Descriptor) ExamplesText(partitionKey string) string {
	var b strings.Builder
	b.WriteString("Example SQL queries for common blockchain questions:\n")
	for _, example := range d.Examples {
		fmt.Fprintf(&b, "\n-- %s\n%s\n", example.Intent, fmt.Sprintf(example.SQL, partitionKey))
	}
	return b.String()
}

// CrossPartitionTable returns the name of the designated table that is shared
// across partitions, or "" when every table is partitioned.
func (d Descriptor) CrossPartitionTable() string {
	for _, table := range d.Tables {
		if !table.Partitioned {
			return table.Name
		}
	}
	return ""
}

// Default returns the descriptor for the indexed blockchain dataset.
func Default() Descriptor {
	return Descriptor{
		Tables: []Table{
			{
				Name:        "blocks",
				Description: "Stores blockchain block details.",
				Columns: []string{
					"id", "hash", "parentHash", "timestamp", "number", "gasLimit", "gasUsed",
					"transactionsRoot", "receiptsRoot", "logsBloom", "difficulty", "baseFeePerGas",
					"withdrawalsRoot", "blobGasUsed", "excessBlobGas", "parentBeaconBlockRoot",
					"sha3Uncles", "miner", "stateRoot", "nonce", "mixHash", "extraData",
					"createdAt", "updatedAt",
				},
				IndexNote:   "Unique Index: (hash, id).",
				Partitioned: true,
			},
			{
				Name:        "deposit_erc20",
				Description: "Stores ERC-20 token deposit logs.",
				Columns: []string{
					"id", "address", "topics", "data", "block_hash", "block_number",
					"transaction_hash", "transaction_index", "log_index", "removed",
					"from", "to", "value",
				},
				IndexNote:   "Unique Index: (transaction_hash, from, id).",
				Partitioned: true,
			},
			{
				Name:        "pools",
				Description: "Stores details of token pools.",
				Columns: []string{
					"id", "pool_address", "token_a_address", "token_b_address",
					"token_a_details", "token_b_details", "created_at", "updated_at",
				},
				IndexNote:   "Unique Index: (id).",
				Partitioned: true,
			},
			{
				Name:        "tokens",
				Description: "Stores token details.",
				Columns: []string{
					"id", "token_address", "name", "symbol", "decimals", "total_supply",
					"price", "created_at", "updated_at",
				},
				IndexNote:   "Unique Index: (token_address).",
				Partitioned: true,
			},
			{
				Name:        "token_trades",
				Description: "Stores trade records of tokens.",
				Columns: []string{
					"id", "token_address", "name", "symbol", "decimals", "total_supply",
					"price", "created_at", "updated_at", "pool_address", "transaction_hash",
				},
				IndexNote:   "Unique Index: (token_address, transaction_hash, id).",
				Partitioned: true,
			},
			{
				Name:        "transactions",
				Description: "Stores blockchain transaction details.",
				Columns: []string{
					"id", "type", "chain_id", "nonce", "gas_price", "gas", "to", "value",
					"input", "r", "s", "v", "hash", "block_hash", "block_number",
					"transaction_index", "from",
				},
				IndexNote:   "Index: (hash, from, id).",
				Partitioned: true,
			},
			{
				Name:        "transfer_erc20",
				Description: "Stores ERC-20 token transfer logs.",
				Columns: []string{
					"id", "contract_address", "topics", "data", "block_hash", "block_number",
					"transaction_hash", "transaction_index", "log_index", "removed",
					"from", "to", "value",
				},
				IndexNote:   "Unique Index: (transaction_hash, from, id).",
				Partitioned: true,
			},
			{
				Name:        "transfer_erc721",
				Description: "Stores ERC-721 (NFT) transfer logs.",
				Columns: []string{
					"id", "contract_address", "topics", "data", "block_hash", "block_number",
					"transaction_hash", "transaction_index", "log_index", "removed",
					"from_address", "to_address", "token_id",
				},
				IndexNote:   "Unique Index: (transaction_hash, from_address, id).",
				Partitioned: true,
			},
			{
				Name:        "users",
				Description: "Stores user details.",
				Columns: []string{
					"id", "email", "password", "project_name", "limit", "created_at", "updated_at",
				},
				IndexNote:   "Unique Constraint: (email, id).",
				Partitioned: false,
			},
			{
				Name:        "users",
				Description: "Stores blockchain user balances.",
				Columns:     []string{"id", "address", "balances", "created_at", "updated_at"},
				IndexNote:   "Index: (address, id).",
				Partitioned: true,
			},
			{
				Name:        "withdrawal_erc20",
				Description: "Stores ERC-20 withdrawal logs.",
				Columns: []string{
					"id", "address", "topics", "data", "block_hash", "block_number",
					"transaction_hash", "transaction_index", "log_index", "removed",
					"from", "to", "value",
				},
				IndexNote:   "Unique Index: (transaction_hash, from, id).",
				Partitioned: true,
			},
		},
		Glossary: `Common blockchain terms and concepts:
- Address: A 42-character hexadecimal string starting with '0x' that represents an account or contract
- Hash: A 66-character hexadecimal string starting with '0x' that uniquely identifies blocks or transactions
- Token: A fungible asset on the blockchain (ERC-20 standard)
- NFT: A non-fungible token on the blockchain (ERC-721 standard)
- Block: A container for transactions, each with a unique hash and number
- Transaction: A transfer of value or data between addresses
- Gas: Cost to execute operations on the blockchain
- Base Chain: An Ethereum Layer 2 blockchain built with the OP Stack
- In this database, 'value' columns for tokens often use wei (1 ETH = 10^18 wei)
- Timestamps are typically stored in Unix epoch time (seconds since Jan 1, 1970)`,
		Examples: []Example{
			{
				Intent: "Get the 10 most recent blocks",
				SQL: `SELECT hash, number, timestamp, gasUsed, gasLimit, miner
FROM blocks_%[1]s
ORDER BY CAST(number AS BIGINT) DESC
LIMIT 10;`,
			},
			{
				Intent: "Get the top 10 tokens by price",
				SQL: `SELECT token_address, name, symbol, decimals, price
FROM tokens_%[1]s
WHERE price IS NOT NULL
ORDER BY CAST(price AS DECIMAL) DESC
LIMIT 10;`,
			},
			{
				Intent: "Get the top 10 addresses by number of transactions",
				SQL: `SELECT "from" as address, COUNT(*) as tx_count
FROM transactions_%[1]s
GROUP BY "from"
ORDER BY tx_count DESC
LIMIT 10;`,
			},
			{
				Intent: "Get the total value of ERC-20 transfers for each token",
				SQL: `SELECT contract_address, SUM(CAST(value AS DECIMAL)) as total_value
FROM transfer_erc20_%[1]s
GROUP BY contract_address
ORDER BY total_value DESC
LIMIT 10;`,
			},
			{
				Intent: "Get average gas used per block over time (by day)",
				SQL: `SELECT
    TO_TIMESTAMP(CAST(timestamp AS BIGINT)) as block_date,
    AVG(CAST(gasUsed AS DECIMAL)) as avg_gas_used
FROM blocks_%[1]s
GROUP BY TO_CHAR(TO_TIMESTAMP(CAST(timestamp AS BIGINT)), 'YYYY-MM-DD')
ORDER BY block_date;`,
			},
			{
				Intent: "Get all ERC-721 (NFT) transfers for a specific token contract",
				SQL: `SELECT from_address, to_address, token_id, transaction_hash
FROM transfer_erc721_%[1]s
WHERE contract_address = '0x123abc...'
ORDER BY block_number DESC
LIMIT 20;`,
			},
		},
	}
}

// ExampleQuestions lists questions the dataset can answer, shown by the CLI as
// inspiration for first-time users.
func ExampleQuestions() []string {
	return []string{
		"What are the 10 most recent blocks?",
		"Show me the top 5 transactions by value",
		"Which wallets have the most token transfers?",
		"What's the average gas used per block?",
		"Show me all ERC-20 transfers with value over 1000",
		"Which tokens have the highest price?",
		"Show me the total transaction count per day",
		"Which addresses have the most NFTs?",
		"How many unique tokens are there in the database?",
		"What's the distribution of transaction values?",
		"Which miners have produced the most blocks?",
		"What's the average number of transactions per block?",
		"Which token has the highest total transfer value?",
		"Show me the most active wallet addresses",
	}
}
