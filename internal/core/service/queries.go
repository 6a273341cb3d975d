package service

// GraphQL documents sent through the query gateway. The gateway never
// inspects them; the services own both the text and the decoding of the
// corresponding payloads.

const shopQuery = `
query Shop {
	shop {
		name
		moneyFormat
	}
}
`

const productQuery = `
query Product($id: ID!) {
	node(id: $id) {
		... on Product {
			id
			title
			handle
			description
			descriptionHtml
			vendor
			productType
			tags
			priceRange {
				minVariantPrice { amount currencyCode }
				maxVariantPrice { amount currencyCode }
			}
			compareAtPriceRange {
				minVariantPrice { amount currencyCode }
				maxVariantPrice { amount currencyCode }
			}
			options {
				name
				optionValues {
					id
					name
					swatch {
						color
						image {
							previewImage { url }
						}
					}
				}
			}
			images(first: 100) {
				edges {
					node { id url altText width height }
				}
			}
			variants(first: 100) {
				edges {
					node {
						id
						title
						sku
						availableForSale
						quantityAvailable
						price { amount currencyCode }
						compareAtPrice { amount currencyCode }
						image { id url altText width height }
						selectedOptions { name value }
					}
				}
			}
		}
	}
}
`

const cartQuery = `
query Cart($cartId: ID!) {
	cart(id: $cartId) {
		id
		checkoutUrl
		createdAt
		updatedAt
		totalQuantity
		lines(first: 50) {
			edges {
				node {
					id
					quantity
					attributes { key value }
					cost {
						amountPerQuantity { amount currencyCode }
						totalAmount { amount currencyCode }
					}
					merchandise {
						... on ProductVariant {
							id
							title
							sku
							availableForSale
							quantityAvailable
							image { id url altText }
							price { amount currencyCode }
							product { id title }
						}
					}
				}
			}
		}
		estimatedCost {
			subtotalAmount { amount currencyCode }
			totalAmount { amount currencyCode }
			totalTaxAmount { amount currencyCode }
		}
	}
}
`

const cartCreateMutation = `
mutation CartCreate($input: CartInput!) {
	cartCreate(input: $input) {
		cart { id }
		userErrors { field message }
	}
}
`

const cartLinesAddMutation = `
mutation CartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
	cartLinesAdd(cartId: $cartId, lines: $lines) {
		cart { id }
		userErrors { field message }
	}
}
`

const cartLinesRemoveMutation = `
mutation CartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
	cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
		cart { id }
		userErrors { field message }
	}
}
`

const cartLinesUpdateMutation = `
mutation CartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
	cartLinesUpdate(cartId: $cartId, lines: $lines) {
		cart { id }
		userErrors { field message }
	}
}
`
